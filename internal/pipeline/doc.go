// Package pipeline provides a framework for executing audit steps in sequence.
//
// The pipeline pattern is used to run a URL through multiple components:
// the technical audit, Core Web Vitals, structured data validation, sitemap
// analysis, and the mobile-friendliness check. Each component is implemented
// as a Step that receives the accumulated report and fills in its section.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running audits
// 4. It enables potential parallelization of independent steps in the future
//
// The pipeline supports both individual audits and batch processing with
// concurrency control using errgroup.
package pipeline
