// Package store keeps relay uploads on disk.
//
// Uploads are opaque: the relay never sees plaintext, because clients only
// upload image ciphertext. Each blob is written atomically under a random
// UUID name, so a reader never observes a partial file.
package store
