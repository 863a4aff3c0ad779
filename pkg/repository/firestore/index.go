package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the composite indexes needed by filtered List queries.
// Collection names carry the given prefix.
func IndexConfig(collectionPrefix string) *fireconf.Config {
	createdAtDesc := fireconf.IndexField{Path: "CreatedAt", Order: fireconf.OrderDescending}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: collectionPrefix + analysesCollection,
				Indexes: []fireconf.Index{
					// List with provider filter
					{
						Fields: []fireconf.IndexField{
							{Path: "Provider", Order: fireconf.OrderAscending},
							createdAtDesc,
						},
					},
					// List with sector filter
					{
						Fields: []fireconf.IndexField{
							{Path: "Sektor", Order: fireconf.OrderAscending},
							createdAtDesc,
						},
					},
					// List with both filters
					{
						Fields: []fireconf.IndexField{
							{Path: "Provider", Order: fireconf.OrderAscending},
							{Path: "Sektor", Order: fireconf.OrderAscending},
							createdAtDesc,
						},
					},
				},
			},
		},
	}
}
