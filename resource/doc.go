// Package resource compiles resource declaration documents into Go source.
//
// A declaration document is XML with a <resources> root. Namespaces nest
// with <ns name="...">, and every other element declares one resource:
//
//	<resources>
//	  <string name="base_url">https://x.test</string>
//	  <number name="retries" type="u8">3</number>
//	  <ns name="auth">
//	    <string name="title">Sign in to @string/app</string>
//	    <string name="welcome" template="Hello {name}, you have {count} messages!">
//	      <param name="name"/>
//	      <param name="count" type="int"/>
//	    </string>
//	  </ns>
//	</resources>
//
// [Compile] runs the whole pipeline:
//
//  1. [Parse] reads each [Source] into one [Tree], merging namespaces and
//     rejecting duplicate qualified paths.
//  2. [Resolve] substitutes "@tag/path" references until a fixed point and
//     reports unknown targets and cycles.
//  3. [CompileTemplates] binds template placeholders to parameters.
//  4. [Emit] renders one Go package per namespace plus a flat package that
//     re-exports every resource under its qualified path.
//
// Every stage reports all of its diagnostics as an [ErrorList] of [*Error]
// values before the pipeline stops. A failed [Compile] wraps them in a
// [*StageError].
//
// Elements may carry profile="a,b" and if="expr" attributes. The if
// attribute is an expr-lang expression over env(name), profile, goos,
// goarch and tests.
package resource
