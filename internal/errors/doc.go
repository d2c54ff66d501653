// Package errors provides structured, coded errors for vpatch.
//
// Every error carries a code (e.g., "V001") that maps to a category, a
// short message and a hint:
//   - contract: malformed descriptors handed to the patcher
//   - hook: module hook failures
//   - host: failures raised by the render target
//   - config: configuration loading and validation
//   - document, protocol: tree documents and op frames
//
// # Usage
//
//	err := errors.New(errors.CodeDuplicateKey).
//	    WithDetailf("key %q under <%s>", "a", "ul")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR V001: Duplicate key among siblings
//	//
//	//   key "a" under <ul>
//	//
//	//   Hint: Keys must be unique within one child list. ...
package errors
