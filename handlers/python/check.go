package pythonhandler

import (
	"fmt"

	"reqpin/environment"
	"reqpin/pep440"
	"reqpin/requirement"
	"reqpin/utils"
)

// Incompatibility is a requirement the installed version does not satisfy.
type Incompatibility struct {
	Name        string
	Installed   string
	Requirement string
}

func (i Incompatibility) String() string {
	return fmt.Sprintf("%s %s does not satisfy %s", i.Name, i.Installed, i.Requirement)
}

// CheckResult collects the findings of CheckCompatibility.
type CheckResult struct {
	Incompatibilities []Incompatibility
	Missing           []string // declared but not installed
	Errors            []error  // lines that could not be evaluated
}

// Compatible reports whether nothing was found to be incompatible.
func (r CheckResult) Compatible() bool { return len(r.Incompatibilities) == 0 }

// CheckCompatibility evaluates every requirement line against the installed
// version of its package. Comments, blank lines, options and direct URL
// references are skipped; problems with single lines never stop the check.
func CheckCompatibility(lines []string, index environment.Index, logger *utils.Logger) CheckResult {
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	var res CheckResult
	for _, line := range lines {
		if requirement.Classify(line) != requirement.KindRequirement {
			continue
		}
		spec, _ := requirement.Split(line)
		req, err := requirement.Parse(spec)
		if err != nil {
			logger.Errorf("Error processing requirement %s: %v", line, err)
			res.Errors = append(res.Errors, fmt.Errorf("error processing requirement %s: %w", line, err))
			continue
		}
		if req.URL != "" {
			continue
		}

		dep, ok := index.Lookup(req.Name)
		if !ok {
			res.Missing = append(res.Missing, req.Name)
			continue
		}
		installed, err := pep440.Parse(dep.Version)
		if err != nil {
			logger.Errorf("Error processing requirement %s: %v", line, err)
			res.Errors = append(res.Errors, fmt.Errorf("error processing requirement %s: %w", line, err))
			continue
		}
		if !req.Specifier.Contains(installed) {
			res.Incompatibilities = append(res.Incompatibilities, Incompatibility{
				Name:        req.Name,
				Installed:   dep.Version,
				Requirement: req.String(),
			})
		}
	}
	return res
}
