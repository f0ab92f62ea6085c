// Package provider synthesizes build recipes from a high-level project
// description. The googlefonts provider knows the standard family layout
// (variable fonts, statics per declared instance, webfonts) and emits the
// same step chains a hand-written recipe would, so the compiler never
// distinguishes generated targets from explicit ones. Explicit recipe
// targets override generated ones, except that a chain consisting only of
// postprocess steps extends the generated chain instead of replacing it.
package provider
