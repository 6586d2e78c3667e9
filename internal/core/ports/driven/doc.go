// Package driven declares what the core needs from the outside world.
//
// ContentSource, ChapterConfigSource and ComponentResolver are required to
// render anything. Presenter and ConfigStore are needed by the front ends.
//
// SearchIndex and ContentWatcher may be nil. Search then fails with
// domain.ErrSearchUnavailable and watch mode is off.
//
// This package imports domain and nothing else from internal/.
package driven
