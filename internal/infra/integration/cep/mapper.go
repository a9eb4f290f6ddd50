package cep

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-cep/internal/entity"
)

// extractAddress converte a resposta de qualquer provedor no Address canônico.
// O ZipCode é sempre o CEP normalizado de quem chamou, nunca o do payload.
func extractAddress(p Provider, payload rawResponse, statusCode int, zipCode string) (*entity.Address, bool) {
	if statusCode != http.StatusOK || payload == nil {
		return nil, false
	}
	if truthy(payload[notFoundMarker]) {
		return nil, false
	}
	if p.NotFound != nil && p.NotFound(payload) {
		return nil, false
	}

	street, _ := lookup(payload, fieldAliases.Street)
	neighborhood, _ := lookup(payload, fieldAliases.Neighborhood)

	return &entity.Address{
		State:        optional(lookup(payload, fieldAliases.State)),
		City:         optional(lookup(payload, fieldAliases.City)),
		Street:       street,
		Neighborhood: neighborhood,
		ZipCode:      zipCode,
	}, true
}

// lookup percorre os aliases: o primeiro valor não vazio ganha. Se só houver
// valores vazios, fica o último presente. ok=false quando nenhum alias existe.
func lookup(payload rawResponse, aliases []string) (string, bool) {
	value, found := "", false
	for _, alias := range aliases {
		raw, present := payload[alias]
		if !present || raw == nil {
			continue
		}
		s := toString(raw)
		if s != "" {
			return s, true
		}
		value, found = s, true
	}
	return value, found
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// truthy segue a mesma regra do marcador "erro" dos provedores:
// true, "true", 1... contam; false, "", 0 e ausência não.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
