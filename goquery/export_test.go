package goquery

// CollectImages exposes collectImages, whose alt and size data never reach
// the product record, to the external tests.
var CollectImages = collectImages
