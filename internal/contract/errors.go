package contract

import "errors"

// Sentinel errors shared across sources, commands and servers.
var (
	ErrUnknownRelease       = errors.New("unknown release")
	ErrUnknownWindow        = errors.New("unknown window token")
	ErrMissingBaseRelease   = errors.New("must specify --base-release when comparing releases")
	ErrMissingTargetRelease = errors.New("must specify --target-release when comparing releases")
	ErrSameRelease          = errors.New("base and target releases must differ")
	ErrMissingRelease       = errors.New("must specify --release")
	ErrMissingOutputFile    = errors.New("parquet output requires --output-file")
)
