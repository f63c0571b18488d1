package huffman

import "errors"

var errEmptyAlphabet = errors.New("huffman: decode attempted with an empty alphabet")
