// Package codehub is a code playground for Python, C++, Java, JavaScript and
// HTML.
//
// # Overview
//
// Runs are simulated. Nothing is compiled or executed: the mock interpreter
// recognises print and input idioms for each language and fabricates output
// from the literals it finds. Code and its language travel between users as
// share links, and can be downloaded as code.<ext>.
//
// # Basic Usage
//
//	exec := executor.New()
//
//	// One-shot run with queued input values
//	result := exec.Run(ctx, python.New(), `name = input("Name:")`,
//	    executor.WithInputs("Ada"))
//	fmt.Println(result.Output) // Python output:\nName: Ada
//
//	// Interactive run that parks on each prompt
//	session, _ := exec.NewSession(python.New(), code)
//	snap, _ := session.Wait(ctx) // snap.State == executor.StateWaiting
//	session.Provide("Ada")
//
// # Share Links
//
//	link, _ := share.Encode("https://play.example.com", share.CodeData{
//	    Code: code, Language: "python",
//	})
//	data, _ := share.Decode(link)
//
// See the [executor], [language], [share] and [server] packages for detailed
// API documentation, and cmd/codehub for the command line.
package codehub
