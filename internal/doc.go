// Package internal is the application layer of the tuck command.
//
// Key components:
//
// Engine: compiles grammars through a Cache and runs them over text or
// files, logging every rewrite at debug level.
//
// Cache: compiled programs keyed by grammar file (invalidated when the file
// changes) or by the hash of in-memory grammar source.
//
// Config: the .tuck.yaml file naming the grammar, the input extensions and
// the output format.
//
// ProcessPaths: runs a program over files and directory trees with a
// bounded worker pool and a progress bar.
//
// Watcher: reprocesses input files as they are written.
//
// FormatForest, FormatCompileError: colored terminal output.
//
// Usage:
//
//	engine := internal.NewEngine(logger, internal.NewCache(time.Minute))
//	prog, err := engine.CompileFile("grammar.tuck")
//	if err != nil {
//	    // handle error
//	}
//	res, err := engine.RunFile(prog, "input.txt")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(internal.FormatResult(res))
package internal
