package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateArchiveKey builds an object key for raw payload archiving, e.g.
// "meetup/3f1c.../events/20260828T101500-aB3xQ1z.json".
func GenerateArchiveKey(provider string, userID string, kind string, ts string) string {
	return provider + "/" + userID + "/" + kind + "/" + ts + "-" + GenerateID() + ".json"
}
