// Package appid defines the Steam App ID that a farmer session idles on and
// resolves it from the places an operator can supply one.
//
// # Identifier
//
// ID is an unsigned 32-bit integer. Zero is the "unresolved" value and is
// never accepted as a real identifier. Parse is the single gate every input
// source goes through: it trims surrounding whitespace and rejects empty
// strings, signs, non-digits, overflow and zero.
//
// # Resolution Order
//
// Resolver.Resolve walks the sources in priority order and stops at the
// first valid value:
//
//  1. The explicit launch identifier (id=<n> or -id=<n>)
//  2. The last-used identifier persisted in steam_appid.txt
//  3. Interactive input, only when the launch mode is interactive
//
// Invalid values in steps 1 and 2 are ignored rather than reported, so a
// corrupt steam_appid.txt simply falls through to the prompt. In unattended
// mode there is no step 3 and an unresolved identifier is an error.
//
// With Request.AlwaysPrompt the prompt is shown even when steps 1-2
// produced a value; that value is passed to the prompter as a suggestion.
package appid
