// Package executor provides the mock run engine behind the playground.
//
// # Overview
//
// Nothing is compiled or executed. Each [Language] supplies a [Dialect]:
// a handful of regular expressions that recognise print and input idioms.
// The interpreter echoes the first literal argument of a print call and
// asks for a value whenever an input call is found.
//
// # Basic Usage
//
//	exec := executor.New()
//
//	result := exec.Run(ctx, python.New(), `print("hello")`)
//	fmt.Println(result.Output) // Python output: hello
//
// Input values can be supplied up front:
//
//	result := exec.Run(ctx, cpp.New(), code, executor.WithInputs("3", "4"))
//
// # Sessions
//
// A Session runs in the background and pauses on every prompt until the
// caller resolves it:
//
//	session, err := exec.NewSession(python.New(), code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	snap, _ := session.Wait(ctx)
//	for snap.State == executor.StateWaiting {
//	    session.Provide(answer(snap.Prompt))
//	    snap, _ = session.Wait(ctx)
//	}
//	fmt.Println(snap.Output)
//
// # Language Interface
//
// To add a language, implement the [Language] interface.
// See [github.com/caffeineduck/codehub/language/python] for an example.
package executor
