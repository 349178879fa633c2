// Package config provides one generic functional-option helper shared by
// every package that takes `...Option`. It generalizes the two option
// conventions used across the example corpus — `core.GraphOption` (closes
// directly over a concrete struct) and `matrix.Option` (closes over an
// unexported Options struct resolved by a package-local gatherOptions) —
// into a single reusable `Apply`.
package config
