package appid

import (
	"context"
	"fmt"
)

// Source records where a resolved ID came from.
type Source int

const (
	SourceNone Source = iota
	SourceArgument
	SourceFile
	SourcePrompt
)

func (s Source) String() string {
	switch s {
	case SourceArgument:
		return "argument"
	case SourceFile:
		return "file"
	case SourcePrompt:
		return "prompt"
	default:
		return "none"
	}
}

// Loader returns the persisted ID, or 0 when there is none.
type Loader interface {
	Load() ID
}

// Prompter asks the operator for an App ID. suggested is 0 when nothing was
// resolved before the prompt. Returning ErrCancelled aborts resolution.
type Prompter interface {
	PromptAppID(ctx context.Context, suggested ID) (string, error)
}

// Request describes one resolution attempt.
type Request struct {
	// ArgID is the explicit launch identifier, 0 when absent or invalid.
	ArgID ID
	// Interactive permits the prompter to be used.
	Interactive bool
	// AlwaysPrompt shows the prompt even when ArgID or the file resolved.
	AlwaysPrompt bool
}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	ID     ID
	Source Source
}

// Resolver determines the App ID for a session.
type Resolver struct {
	File     Loader
	Prompter Prompter
}

// Resolve returns the first valid ID from the launch argument, the persisted
// file, and (interactive only) the prompter.
func (r Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	found := r.lookup(req.ArgID)

	if found.ID.Valid() && !(req.Interactive && req.AlwaysPrompt) {
		return found, nil
	}
	if !req.Interactive {
		return Resolution{}, fmt.Errorf("%w: no launch argument or persisted value", ErrInvalidIdentifier)
	}
	if r.Prompter == nil {
		return Resolution{}, fmt.Errorf("%w: interactive input is unavailable", ErrInvalidIdentifier)
	}

	raw, err := r.Prompter.PromptAppID(ctx, found.ID)
	if err != nil {
		return Resolution{}, err
	}
	id, err := Parse(raw)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{ID: id, Source: SourcePrompt}, nil
}

func (r Resolver) lookup(argID ID) Resolution {
	if argID.Valid() {
		return Resolution{ID: argID, Source: SourceArgument}
	}
	if r.File != nil {
		if id := r.File.Load(); id.Valid() {
			return Resolution{ID: id, Source: SourceFile}
		}
	}
	return Resolution{}
}
