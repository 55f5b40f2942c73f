package pythonhandler

import (
	"fmt"
	"sort"
	"strings"

	"reqpin/environment"
	"reqpin/requirement"
	"reqpin/utils"
)

// Result is the outcome of pinning one requirements file.
type Result struct {
	Lines    []string // rewritten lines, sorted case-insensitively
	Updated  []string // rewritten lines in their original order
	Summary  utils.Summary
	Warnings []string
}

// Update pins every requirement line to its installed version. Lines that
// cannot be pinned are kept as they are; the reason ends up in Warnings.
func Update(lines []string, index environment.Index, curations utils.Curations, logger *utils.Logger) Result {
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	var res Result
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		logger.Warnf("%s", msg)
		res.Warnings = append(res.Warnings, msg)
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		res.Updated = append(res.Updated, pinLine(line, index, curations, logger, warn, &res.Summary))
	}

	res.Lines = SortRequirements(res.Updated)
	return res
}

func pinLine(line string, index environment.Index, curations utils.Curations, logger *utils.Logger,
	warn func(string, ...interface{}), summary *utils.Summary) string {
	switch requirement.Classify(line) {
	case requirement.KindBlank, requirement.KindComment:
		summary.Kept++
		return line
	case requirement.KindOption:
		logger.Debugf("Keeping option line %q", line)
		summary.Kept++
		return line
	}

	spec, flags := requirement.Split(line)
	req, err := requirement.Parse(spec)
	if err != nil {
		warn("Error processing %s: %v", line, err)
		summary.Errored++
		return line
	}
	if req.URL != "" {
		logger.Debugf("Keeping direct reference %s", req.Name)
		summary.Kept++
		return line
	}

	var version string
	if rule, ok := curations.Lookup(req.Name); ok {
		if rule.Hold {
			logger.Infof("Holding %s as declared %s", req.Name, reasonSuffix(rule))
			summary.Held++
			return line
		}
		if rule.Version != "" {
			logger.Infof("Pinning %s to curated version %s %s", req.Name, rule.Version, reasonSuffix(rule))
			version = rule.Version
		}
	}

	if version == "" {
		dep, ok := index.Lookup(req.Name)
		if !ok {
			warn("Package %s not found, keeping as is", req.Name)
			summary.Missing++
			return line
		}
		version = dep.Version
	}

	summary.Pinned++
	updated := req.Pinned(version)
	if flags != "" {
		updated += " " + flags
	}
	return updated
}

func reasonSuffix(rule utils.CurationRule) string {
	if rule.Reason == "" {
		return ""
	}
	return "(" + rule.Reason + ")"
}

// SortRequirements returns a copy of lines sorted case-insensitively. Lines
// that compare equal keep their relative order.
func SortRequirements(lines []string) []string {
	sorted := append([]string(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	return sorted
}
