package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"contractsim/model"
)

// Catalogue indexes the listed contracts by symbol.
type Catalogue struct {
	contracts []model.Contract
	bySymbol  map[string]model.Contract
}

// LoadCatalogue reads the contract listing file, a JSON array of contracts.
func LoadCatalogue(path string) (*Catalogue, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file: %w", err)
	}

	var contracts []model.Contract
	if err := json.Unmarshal(payload, &contracts); err != nil {
		return nil, fmt.Errorf("parse contracts file: %w", err)
	}

	return NewCatalogue(contracts), nil
}

func NewCatalogue(contracts []model.Contract) *Catalogue {
	catalogue := &Catalogue{
		contracts: contracts,
		bySymbol:  make(map[string]model.Contract),
	}
	for _, contract := range contracts {
		catalogue.bySymbol[contract.Symbol] = contract
	}
	return catalogue
}

func (c *Catalogue) Contracts() []model.Contract {
	return c.contracts
}

func (c *Catalogue) Find(symbol string) (model.Contract, bool) {
	contract, ok := c.bySymbol[symbol]
	return contract, ok
}
