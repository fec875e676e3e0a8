// Package hcl provides the HCL implementation of declaration.Evaluator.
// It parses one declaration file, decodes its provider blocks, evaluates
// their arguments and hands them to a catalog to construct the providers.
//
// A declaration file looks like this:
//
//	service "greeting" {
//	  kind  = "print"
//	  label = upper("hello")
//	}
//
//	assembler "text" {
//	  resource_type = "TXT"
//	}
//
//	runtime "socketio" {
//	  url = env.SOCKETIO_URL
//	}
//
// Service blocks are labelled with the service name and select the factory
// with the kind attribute. All other blocks are labelled with the factory
// kind. Every remaining attribute becomes a factory argument. Expressions
// may call the go-cty standard functions listed in Functions and read
// environment variables through env.
package hcl
