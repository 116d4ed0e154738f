package handlers

import (
	"github.com/civicfix-dev/civicfix/internal/assignment"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/civicfix-dev/civicfix/internal/workflow"
)

var (
	store        repository.Store
	assignEngine *assignment.Engine
	flowEngine   *workflow.Engine
)

// Setup wires the handler package to a store. Tests swap in the in-memory
// store here.
func Setup(s repository.Store) {
	store = s
	assignEngine = assignment.NewEngine(s)
	flowEngine = workflow.NewEngine(s)
}
