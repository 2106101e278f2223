// Package pipeline provides a framework for executing crawl stages in sequence.
//
// The pipeline pattern is used to process a seed URL through multiple
// stages: site traversal, broken-link logging, and database persistence.
// Each stage is implemented as a Step that receives the current report and
// can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running crawls
// 4. It enables potential parallelization of independent steps in the future
//
// Early-stop semantics live here rather than inside the spider: when a crawl
// terminates at its first 404, the subsequent logging and persistence steps
// see the EarlyStopped flag and skip their side effects, so the filesystem
// and database are left untouched.
//
// The pipeline supports both individual crawls and batch processing of
// multiple seeds with concurrency control using errgroup.
package pipeline
