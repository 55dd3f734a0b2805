package scenario

import "github.com/louisbranch/savagesheet/internal/services/sheet/app"

type scenarioState struct {
	// characters maps script names to service ids.
	characters map[string]string
	current    string
}

func (s *scenarioState) currentID() (string, bool) {
	id, ok := s.characters[s.current]
	return id, ok
}

func (s *scenarioState) close(service *app.Service) {
	for _, id := range s.characters {
		service.Close(id)
	}
}
