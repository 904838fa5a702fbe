package cli

// PrefetchTask exposes the serve prefetch task for tests
var PrefetchTask = prefetchTask
