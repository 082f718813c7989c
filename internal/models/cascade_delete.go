package models

// CascadeDeleteResult reports what a product delete removed
type CascadeDeleteResult struct {
	ProductID              string `json:"productId"`
	ProductsDeleted        int    `json:"productsDeleted"`
	VariantsDeleted        int    `json:"variantsDeleted"`
	ImagesDeleted          int    `json:"imagesDeleted"`
	CollectionLinksRemoved int    `json:"collectionLinksRemoved"`
}

// ResetResult reports the rows removed by a full catalog wipe,
// listed in deletion order.
type ResetResult struct {
	ImagesDeleted          int64 `json:"imagesDeleted"`
	VariantsDeleted        int64 `json:"variantsDeleted"`
	CollectionLinksRemoved int64 `json:"collectionLinksRemoved"`
	ProductsDeleted        int64 `json:"productsDeleted"`
	CollectionsDeleted     int64 `json:"collectionsDeleted"`
	SizeChartsDeleted      int64 `json:"sizeChartsDeleted"`
}
