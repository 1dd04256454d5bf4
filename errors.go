package probemap

import (
	coreerrors "github.com/five82/probemap/internal/errors"
)

// Error kinds
const (
	KindIO           = coreerrors.KindIO
	KindCommand      = coreerrors.KindCommand
	KindProbeParse   = coreerrors.KindProbeParse
	KindRuleConfig   = coreerrors.KindRuleConfig
	KindProfile      = coreerrors.KindProfile
	KindInvalidMedia = coreerrors.KindInvalidMedia
	KindNoFilesFound = coreerrors.KindNoFilesFound
	KindCancelled    = coreerrors.KindCancelled
	KindValidation   = coreerrors.KindValidation
)

type (
	ErrorKind = coreerrors.ErrorKind
	CoreError = coreerrors.CoreError
	RuleError = coreerrors.RuleError
)

// IsKind reports whether err is a CoreError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return coreerrors.IsKind(err, kind)
}

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return coreerrors.IsCancelled(err)
}

// IsNoFilesFound reports whether err means a directory held no video files.
func IsNoFilesFound(err error) bool {
	return coreerrors.IsNoFilesFound(err)
}

func isRuleConfig(err error) bool {
	return coreerrors.IsRuleConfig(err)
}
