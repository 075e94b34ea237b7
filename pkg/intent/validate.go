package intent

import (
	"errors"
	"fmt"
)

// ErrInvalidIntent is wrapped by every validation failure so callers can
// classify rejections without matching message text.
var ErrInvalidIntent = errors.New("invalid intent")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidIntent, fmt.Sprintf(format, args...))
}

// Validate enforces purpose membership and target-resolution rules.
func (i FileAccessIntent) Validate() error {
	switch i.Purpose {
	case AccessRead, AccessPreview, AccessMetadata, AccessVerifyExists:
		if i.Target.IsZero() {
			return invalidf("access requires a target")
		}
	case AccessCreateOrGet:
		if i.Target.Path == "" {
			return invalidf("create_or_get requires target.path")
		}
	case "":
		return invalidf("access purpose is required")
	default:
		return invalidf("unknown access purpose %q", i.Purpose)
	}
	return nil
}

// Validate enforces purpose membership and the content requirement: every
// update except create must carry content (create of an empty file is
// legitimate).
func (i ContentUpdateIntent) Validate() error {
	switch i.Purpose {
	case UpdateCreate:
	case UpdateAppend, UpdateOverwrite, UpdateMerge, UpdatePatch:
		if i.Content == "" {
			return invalidf("update %s requires content", i.Purpose)
		}
	case "":
		return invalidf("update purpose is required")
	default:
		return invalidf("unknown update purpose %q", i.Purpose)
	}
	if i.Target.Path == "" {
		return invalidf("update requires target.path")
	}
	return nil
}

// Validate enforces source/destination presence per purpose.
func (i OrganizeIntent) Validate() error {
	switch i.Purpose {
	case OrganizeCreateDirectory:
		if i.Destination.Path == "" {
			return invalidf("create_directory requires destination.path")
		}
	case OrganizeMove, OrganizeCopy:
		if i.Source.IsZero() {
			return invalidf("%s requires a source", i.Purpose)
		}
		if i.Destination.Path == "" {
			return invalidf("%s requires destination.path", i.Purpose)
		}
	case OrganizeGroupSemantic, OrganizeGroupKeywords:
	case "":
		return invalidf("organize purpose is required")
	default:
		return invalidf("unknown organize purpose %q", i.Purpose)
	}
	return nil
}

// Validate enforces purpose membership; list accepts an empty path, which
// addresses the sandbox root.
func (i DiscoverIntent) Validate() error {
	switch i.Purpose {
	case DiscoverList:
	case DiscoverFind:
		if i.Target.IsZero() {
			return invalidf("find requires a target")
		}
	case DiscoverSearchContent, DiscoverSearchSemantic, DiscoverSearchIntegrated:
		if i.Target.IsZero() {
			return invalidf("%s requires a target", i.Purpose)
		}
	case "":
		return invalidf("discover purpose is required")
	default:
		return invalidf("unknown discover purpose %q", i.Purpose)
	}
	return nil
}

// Validate enforces purpose membership and target presence.
func (i RemoveIntent) Validate() error {
	switch i.Purpose {
	case RemoveDeleteFile, RemoveDeleteDirectory:
		if i.Target.IsZero() {
			return invalidf("%s requires a target", i.Purpose)
		}
	case RemoveDeleteByCriteria:
		if i.Target.Criteria.IsZero() && i.Target.Pattern == "" && i.Target.SemanticQuery == "" {
			return invalidf("delete_by_criteria requires criteria, pattern, or semanticQuery")
		}
	case "":
		return invalidf("remove purpose is required")
	default:
		return invalidf("unknown remove purpose %q", i.Purpose)
	}
	return nil
}
