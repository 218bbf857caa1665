// Package repositories provides the persistence layer for resolved
// matches.
//
// [ResolutionRepository] implements models.Repository for
// track→video mappings, handling CRUD operations and soft deletes. The
// resolve engine consults it before searching so repeat runs skip API
// calls for tracks that already resolved.
package repositories
