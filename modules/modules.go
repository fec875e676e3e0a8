// Package modules lists the provider modules compiled into plugreg.
package modules

import (
	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/modules/beliefs"
	"github.com/vk/plugreg/modules/env_vars"
	"github.com/vk/plugreg/modules/http_client"
	"github.com/vk/plugreg/modules/print"
	"github.com/vk/plugreg/modules/socketio"
	"github.com/vk/plugreg/modules/textassembler"
)

// Core returns the definitive list of all modules that are compiled into
// the plugreg binary.
func Core() []catalog.Module {
	return []catalog.Module{
		&env_vars.Module{},
		&print.Module{},
		&http_client.Module{},
		&socketio.Module{},
		&textassembler.Module{},
		&beliefs.Module{},
	}
}
