package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes all top-level blocks of a declaration file.
type fileRoot struct {
	Services   []*serviceBlock  `hcl:"service,block"`
	Assemblers []*providerBlock `hcl:"assembler,block"`
	Weavers    []*providerBlock `hcl:"weaver,block"`
	Beliefs    []*providerBlock `hcl:"belief,block"`
	Runtimes   []*providerBlock `hcl:"runtime,block"`
}

// serviceBlock is a `service "<name>" { kind = ... }` block.
type serviceBlock struct {
	Name   string   `hcl:"name,label"`
	Kind   string   `hcl:"kind"`
	Remain hcl.Body `hcl:",remain"`
}

// providerBlock is an `assembler|weaver|belief|runtime "<kind>" {}` block.
type providerBlock struct {
	Kind   string   `hcl:"kind,label"`
	Remain hcl.Body `hcl:",remain"`
}
