// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// Env carries the shared dependencies of the built-in backends.
type Env struct {
	Client      *http.Client
	Credentials types.Credentials
}

// BuiltinNames lists the built-in backends in default query order.
var BuiltinNames = []string{
	"openalex", "arxiv", "semantic_scholar", "zenodo", "github",
	"softwareheritage", "huggingface", "hardware", "videos",
}

// Builtin returns the built-in backend registered under name.
func Builtin(name string, env Env) (Backend, error) {
	client := env.Client
	if client == nil {
		client = http.DefaultClient
	}
	creds := env.Credentials

	switch name {
	case "openalex":
		return &OpenAlex{Client: client, Email: creds.OpenAlexEmail}, nil
	case "arxiv":
		return &Arxiv{Client: client}, nil
	case "semantic_scholar":
		return &SemanticScholar{Client: client, APIKey: creds.SemanticKey}, nil
	case "zenodo":
		return &Zenodo{Client: client, Token: creds.ZenodoToken}, nil
	case "github":
		return &GitHub{Client: client, Token: creds.GitHubToken}, nil
	case "softwareheritage":
		return &SoftwareHeritage{Client: client}, nil
	case "huggingface":
		return &HuggingFace{Client: client, Token: creds.HuggingFaceToken}, nil
	case "hardware":
		return Hardware()
	case "videos":
		return Videos()
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
