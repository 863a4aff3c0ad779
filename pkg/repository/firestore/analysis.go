package firestore

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const analysesCollection = "analyses"

// analysisDoc is the Firestore document representation of model.Analysis. Firestore cannot
// hold nested arrays, so the response (with its 5x5 heatmap) is stored as a JSON string.
// Queryable fields are copied out of the response.
type analysisDoc struct {
	ID                 string    `firestore:"ID"`
	Description        string    `firestore:"Description"`
	Provider           string    `firestore:"Provider"`
	ExtractionMethod   string    `firestore:"ExtractionMethod"`
	Sektor             string    `firestore:"Sektor"`
	SuccessProbability float64   `firestore:"SuccessProbability"`
	Response           string    `firestore:"Response"`
	DurationMS         int64     `firestore:"DurationMS"`
	Cached             bool      `firestore:"Cached"`
	CreatedAt          time.Time `firestore:"CreatedAt"`
}

func toAnalysisDoc(a *model.Analysis) (*analysisDoc, error) {
	doc := &analysisDoc{
		ID:               a.ID.String(),
		Description:      a.Description,
		Provider:         a.Provider.String(),
		ExtractionMethod: a.ExtractionMethod.String(),
		DurationMS:       a.Duration.Milliseconds(),
		Cached:           a.Cached,
		CreatedAt:        a.CreatedAt,
	}
	if a.Response != nil {
		raw, err := json.Marshal(a.Response)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode analysis response", goerr.V("id", a.ID))
		}
		doc.Response = string(raw)
		doc.Sektor = a.Response.ExtractedVariables.Sektor
		doc.SuccessProbability = a.Response.SuccessProbability
	}
	return doc, nil
}

func fromAnalysisDoc(d *analysisDoc) (*model.Analysis, error) {
	a := &model.Analysis{
		ID:               model.AnalysisID(d.ID),
		Description:      d.Description,
		Provider:         types.ModelProvider(d.Provider),
		ExtractionMethod: types.ExtractionMethod(d.ExtractionMethod),
		Duration:         time.Duration(d.DurationMS) * time.Millisecond,
		Cached:           d.Cached,
		CreatedAt:        d.CreatedAt,
	}
	if d.Response != "" {
		var resp model.AnalyzeResponse
		if err := json.Unmarshal([]byte(d.Response), &resp); err != nil {
			return nil, goerr.Wrap(err, "failed to decode analysis response", goerr.V("id", d.ID))
		}
		a.Response = &resp
	}
	return a, nil
}

func docToAnalysis(doc *firestore.DocumentSnapshot) (*model.Analysis, error) {
	var d analysisDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal analysis", goerr.V("id", doc.Ref.ID))
	}
	return fromAnalysisDoc(&d)
}

type analysisRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAnalysisRepository(client *firestore.Client) *analysisRepository {
	return &analysisRepository{
		client: client,
	}
}

func (r *analysisRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + analysesCollection)
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	created := analysis.Clone()
	if created.ID == "" {
		created.ID = model.NewAnalysisID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc, err := toAnalysisDoc(created)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection().Doc(created.ID.String()).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create analysis", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *analysisRepository) Get(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "analysis not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get analysis", goerr.V("id", id))
	}

	return docToAnalysis(doc)
}

// filtered applies list filters. Filtered queries ordered by CreatedAt need the composite
// indexes declared by IndexConfig.
func (r *analysisRepository) filtered(opts ...interfaces.ListAnalysisOption) firestore.Query {
	cfg := interfaces.BuildListAnalysisConfig(opts...)
	query := r.collection().Query
	if p := cfg.Provider(); p != nil {
		query = query.Where("Provider", "==", p.String())
	}
	if s := cfg.Sektor(); s != nil {
		query = query.Where("Sektor", "==", *s)
	}
	return query
}

func (r *analysisRepository) List(ctx context.Context, limit, offset int, opts ...interfaces.ListAnalysisOption) ([]*model.Analysis, int, error) {
	base := r.filtered(opts...)

	total, err := r.count(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	query := base.
		OrderBy("CreatedAt", firestore.Desc).
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	analyses := make([]*model.Analysis, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, goerr.Wrap(err, "failed to iterate analyses")
		}

		a, err := docToAnalysis(doc)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, a)
	}

	return analyses, total, nil
}

func (r *analysisRepository) count(ctx context.Context, query firestore.Query) (int, error) {
	res, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count analyses")
	}

	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result", goerr.V("result", res))
	}
	return int(v.GetIntegerValue()), nil
}
