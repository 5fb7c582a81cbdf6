package db

// Repositories provides access to all database repositories
type Repositories struct {
	PlaybackConfigs *PlaybackConfigRepository
	CatalogItems    *CatalogItemRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		PlaybackConfigs: NewPlaybackConfigRepository(db),
		CatalogItems:    NewCatalogItemRepository(db),
	}
}
