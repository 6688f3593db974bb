package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const idLength = 12

// GenerateID gera os ids das vendas registradas pela API
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
