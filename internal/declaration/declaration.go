package declaration

// Category names one of the five registration kinds.
type Category string

const (
	CategoryServices   Category = "services"
	CategoryAssemblers Category = "assemblers"
	CategoryWeavers    Category = "weavers"
	CategoryBeliefs    Category = "beliefs"
	CategoryRuntimes   Category = "runtimes"
)

// Categories lists every category in routing order.
var Categories = []Category{
	CategoryServices,
	CategoryAssemblers,
	CategoryWeavers,
	CategoryBeliefs,
	CategoryRuntimes,
}

// ResourceType identifies the kind of resource an assembler or weaver handles.
type ResourceType string

// BeliefType identifies a truth-maintenance strategy.
type BeliefType string

// AssemblerService builds resources of one type into a knowledge base.
type AssemblerService interface {
	ResourceType() ResourceType
}

// WeaverService weaves resources of one type into an existing knowledge base.
type WeaverService interface {
	ResourceType() ResourceType
}

// BeliefService provides one belief system.
type BeliefService interface {
	BeliefType() BeliefType
}

// RuntimeService provides the implementation of a service interface.
// ServiceInterface returns the identity of that interface.
type RuntimeService interface {
	ServiceInterface() string
}

// Set is the structured result of evaluating one declaration source.
type Set struct {
	Services   map[string]any
	Assemblers []AssemblerService
	Weavers    []WeaverService
	Beliefs    []BeliefService
	Runtimes   []RuntimeService
}

// IsEmpty reports whether s declares nothing. A nil Set is empty.
func (s *Set) IsEmpty() bool {
	return s == nil || (len(s.Services) == 0 &&
		len(s.Assemblers) == 0 &&
		len(s.Weavers) == 0 &&
		len(s.Beliefs) == 0 &&
		len(s.Runtimes) == 0)
}

// Count returns the number of declarations per category.
func (s *Set) Count() map[Category]int {
	if s == nil {
		return map[Category]int{}
	}
	return map[Category]int{
		CategoryServices:   len(s.Services),
		CategoryAssemblers: len(s.Assemblers),
		CategoryWeavers:    len(s.Weavers),
		CategoryBeliefs:    len(s.Beliefs),
		CategoryRuntimes:   len(s.Runtimes),
	}
}
