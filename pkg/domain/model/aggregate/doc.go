// Package aggregate derives dashboard, heatmap and report figures from a risk snapshot.
//
// Every function is pure: it reads the given slice and never mutates the risks,
// so calling it twice on the same snapshot yields identical results.
package aggregate
