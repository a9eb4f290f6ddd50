package cep

// rawResponse é o JSON cru do provedor. Cada um usa nomes diferentes.
type rawResponse map[string]any

// Nomes aceitos para cada campo, na ordem em que são tentados.
var fieldAliases = struct {
	State        []string
	City         []string
	Street       []string
	Neighborhood []string
}{
	State:        []string{"uf", "estado", "state"},
	City:         []string{"localidade", "city"},
	Street:       []string{"logradouro", "address"},
	Neighborhood: []string{"bairro", "district", "neighborhood"},
}

const notFoundMarker = "erro"
