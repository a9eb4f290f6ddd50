package entity

// Value Object: Address
//
// State e City são ponteiros: nil significa que o provedor não mandou o campo,
// "" significa que mandou vazio. Street e Neighborhood nunca ficam nil.
type Address struct {
	State        *string `json:"state"`
	City         *string `json:"city"`
	Street       string  `json:"street"`
	Neighborhood string  `json:"neighborhood"`
	ZipCode      string  `json:"zip_code"`
}

func (a *Address) HasState() bool {
	return a != nil && a.State != nil
}

func (a *Address) HasCity() bool {
	return a != nil && a.City != nil
}

// StateOrEmpty devolve o estado ou "" quando ausente.
func (a *Address) StateOrEmpty() string {
	if !a.HasState() {
		return ""
	}
	return *a.State
}

func (a *Address) CityOrEmpty() string {
	if !a.HasCity() {
		return ""
	}
	return *a.City
}
