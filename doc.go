// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jedit implements a flat tokenizer for JSON text.
//
// # Tokenizing
//
// Tokenize splits a JSON document into a slice of tokens in pre-order. Each
// Token records its Kind, the Span of its text in the input, and the number
// of its immediate children:
//
//	toks, err := jedit.Tokenize(input)
//	if err != nil {
//	   log.Fatalf("Tokenize failed: %v", err)
//	}
//	for _, tok := range toks {
//	   log.Printf("%v %q", tok.Kind, tok.Text(input))
//	}
//
// The tokenizer does not recurse, and it does not build a tree. Containers
// are matched using a single index into the token slice, so the cost of
// nesting is independent of its depth. An object member is represented by
// its key, a String token with one child, followed by its value.
//
// The text of a String token excludes the quotation marks; use Decode to
// obtain its unescaped value.
//
// # Bounded tokenizing
//
// A Tokenizer with a nonzero Limit stores at most that many tokens, and
// reports ErrNoMemory if the input needs more. TokenizeBounded first counts
// the tokens of the input, then tokenizes into a store of exactly the
// required size:
//
//	n := max(jedit.Count(input), jedit.Estimate(input)) + 10
//
// # Errors
//
// Invalid input is reported as a *SyntaxError, which wraps ErrInvalid for
// malformed text or ErrPartial for text that ends before the document is
// complete. Use errors.Is to distinguish them.
//
// # Related packages
//
// Package jpath parses slash-separated paths such as "/a/[2]/b". Package walk
// traverses token slices and reads, writes, and deletes values by path.
// Package jdoc provides Object and Array values built on those operations.
package jedit
