// Package trigger defines trigger entries and the indexes the
// substitution engine looks words up in. An Index is built once per asset
// load and never mutated; a reload builds a new one.
//
// Loader builds both indexes from a YAML manifest:
//
//	triggers:
//	  - name: Kappa
//	    image: images/kappa.png
//	    zero_width: images/kappa_zw.png
//	    folder: twitch
//	sounds:
//	  - name: bruh
//	    file: sounds/bruh.wav
package trigger
