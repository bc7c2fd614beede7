// Package tokens implements the formatting token system: a registry mapping
// one-character markers to handlers, and the built-in color, emphasis,
// conditional and literal-transform handlers.
//
// Handlers participate in two phases. At bake time a handler turns a token's
// raw text into a Binding: static values (named colors, hex triplets,
// emphasis styles) resolve to fixed ANSI code pairs immediately, while
// function-backed values defer to render time. At render time each Binding
// resolves against the call's values and yields wrapping codes, a
// suppression signal, or a replacement value.
//
// Custom token kinds are added by registering a Handler under an unused
// marker character. Registration must happen before the registry is shared
// with concurrently rendering templates.
package tokens
