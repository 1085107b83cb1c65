package service

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vineetsarpal/re-ink/config"
	"github.com/vineetsarpal/re-ink/model"
)

// ContractStore is a mutex-guarded in-memory store for contract records.
// In production this would sit in front of a database; here it is the
// persistence collaborator the handlers receive by reference.
type ContractStore struct {
	contracts    map[string]*model.Contract
	mu           sync.RWMutex
	maxContracts int // Maximum contracts to keep, 0 = unlimited
}

func NewContractStore(cfg *config.StoreConfig) *ContractStore {
	maxContracts := cfg.MaxContracts
	if maxContracts < 0 {
		maxContracts = 0
	}
	return &ContractStore{
		contracts:    make(map[string]*model.Contract),
		maxContracts: maxContracts,
	}
}

func (s *ContractStore) Save(contract *model.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract.UpdatedAt = time.Now()
	s.contracts[contract.ID] = contract

	s.cleanupIfNeeded()
}

func (s *ContractStore) Get(id string) *model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contracts[id]
}

// GetByNumber returns the contract with the given contract number, or nil.
func (s *ContractStore) GetByNumber(number string) *model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contracts {
		if c.ContractNumber == number {
			return c
		}
	}
	return nil
}

// List returns all contracts, newest first. An empty status matches all.
func (s *ContractStore) List(status string) []*model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		if status != "" && c.Status != status {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *ContractStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contracts, id)
}

func (s *ContractStore) UpdateStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.contracts[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now()
	}
}

// cleanupIfNeeded removes oldest contracts if store exceeds maxContracts
// Must be called with lock held
func (s *ContractStore) cleanupIfNeeded() {
	if s.maxContracts <= 0 {
		return // Unlimited
	}

	if len(s.contracts) <= s.maxContracts {
		return
	}

	contracts := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})

	removeCount := len(contracts) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old contract",
			"contract_id", contracts[i].ID,
			"created_at", contracts[i].CreatedAt,
		)
		delete(s.contracts, contracts[i].ID)
	}
}

// Count returns the number of contracts in the store
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

// PartyStore is a mutex-guarded in-memory store for party records.
type PartyStore struct {
	parties map[string]*model.Party
	mu      sync.RWMutex
}

func NewPartyStore() *PartyStore {
	return &PartyStore{
		parties: make(map[string]*model.Party),
	}
}

func (s *PartyStore) Save(party *model.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()

	party.UpdatedAt = time.Now()
	s.parties[party.ID] = party
}

func (s *PartyStore) Get(id string) *model.Party {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parties[id]
}

// FindByName returns the first party whose name matches case-insensitively.
func (s *PartyStore) FindByName(name string) *model.Party {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.parties {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// FindByRegistration returns the party with the given registration number.
func (s *PartyStore) FindByRegistration(registrationNumber string) *model.Party {
	if registrationNumber == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.parties {
		if p.RegistrationNumber == registrationNumber {
			return p
		}
	}
	return nil
}

// List returns all parties sorted by name.
func (s *PartyStore) List() []*model.Party {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Party, 0, len(s.parties))
	for _, p := range s.parties {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *PartyStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parties, id)
}
