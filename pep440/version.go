// Package pep440 implements Python package versions and version specifiers
// as defined by PEP 440.
package pep440

import (
	"fmt"
	"regexp"
	"strings"
)

var versionRe = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_.]?(?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?\s*$`)

// Version is a parsed PEP 440 version.
type Version struct {
	epoch   num
	release []num
	pre     *preRelease
	post    *num
	dev     *num
	local   []string
}

type preRelease struct {
	label string // a, b or rc
	n     num
}

// Parse parses and normalizes a PEP 440 version string. Numeric segments may
// be of any width.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}
	group := func(name string) string {
		return m[versionRe.SubexpIndex(name)]
	}

	v := Version{epoch: parseNum(group("epoch"))}
	for _, part := range strings.Split(group("release"), ".") {
		v.release = append(v.release, parseNum(part))
	}

	if l := group("pre_l"); l != "" {
		v.pre = &preRelease{label: normalizePreLabel(l), n: parseNum(group("pre_n"))}
	}

	if group("post") != "" {
		raw := group("post_n1")
		if raw == "" {
			raw = group("post_n2")
		}
		n := parseNum(raw)
		v.post = &n
	}

	if group("dev_l") != "" {
		n := parseNum(group("dev_n"))
		v.dev = &n
	}

	if l := group("local"); l != "" {
		v.local = strings.FieldsFunc(strings.ToLower(l), func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		})
	}
	return v, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// num is a non-negative integer of any width, in decimal without leading
// zeros. The empty num is zero.
type num string

func parseNum(digits string) num {
	return num(strings.TrimLeft(digits, "0"))
}

func (n num) String() string {
	if n == "" {
		return "0"
	}
	return string(n)
}

func (n num) isZero() bool { return n == "" }

func cmpNum(a, b num) int {
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(string(a), string(b))
}

func normalizePreLabel(l string) string {
	switch strings.ToLower(l) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default: // c, rc, pre, preview
		return "rc"
	}
}

// Epoch returns the version epoch ("0" when absent).
func (v Version) Epoch() string { return v.epoch.String() }

// Release returns the release segments as decimal strings.
func (v Version) Release() []string {
	out := make([]string, len(v.release))
	for i, n := range v.release {
		out[i] = n.String()
	}
	return out
}

// IsPrerelease reports whether v is a pre-release or a development release.
func (v Version) IsPrerelease() bool { return v.pre != nil || v.dev != nil }

// IsPostRelease reports whether v carries a post-release segment.
func (v Version) IsPostRelease() bool { return v.post != nil }

// IsDevRelease reports whether v carries a dev-release segment.
func (v Version) IsDevRelease() bool { return v.dev != nil }

// Local returns the local version label, or "" if there is none.
func (v Version) Local() string { return strings.Join(v.local, ".") }

// Public returns v without its local label.
func (v Version) Public() Version {
	v.local = nil
	return v
}

// BaseVersion returns the epoch and release segments only.
func (v Version) BaseVersion() Version {
	return Version{epoch: v.epoch, release: v.release}
}

// String returns the canonical form of v.
func (v Version) String() string {
	var b strings.Builder
	if !v.epoch.isZero() {
		fmt.Fprintf(&b, "%s!", v.epoch)
	}
	b.WriteString(strings.Join(v.Release(), "."))
	if v.pre != nil {
		fmt.Fprintf(&b, "%s%s", v.pre.label, v.pre.n)
	}
	if v.post != nil {
		fmt.Fprintf(&b, ".post%s", *v.post)
	}
	if v.dev != nil {
		fmt.Fprintf(&b, ".dev%s", *v.dev)
	}
	if len(v.local) > 0 {
		b.WriteByte('+')
		b.WriteString(v.Local())
	}
	return b.String()
}

// Equal reports whether v and o are the same version under PEP 440 ordering.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// LessThan reports whether v sorts before o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// Compare returns -1, 0 or 1 as v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	if c := cmpNum(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := compareRelease(trimZeros(v.release), trimZeros(o.release)); c != 0 {
		return c
	}
	if c := v.preKey().compare(o.preKey()); c != 0 {
		return c
	}
	if c := optionalKey(v.post, false).compare(optionalKey(o.post, false)); c != 0 {
		return c
	}
	if c := optionalKey(v.dev, true).compare(optionalKey(o.dev, true)); c != 0 {
		return c
	}
	return compareLocal(v.local, o.local)
}

// key is a comparison slot that may be negative or positive infinity.
type key struct {
	inf  int // -1, 0 or 1
	rank int
	n    num
}

func (k key) compare(o key) int {
	if c := cmpInt(k.inf, o.inf); c != 0 {
		return c
	}
	if k.inf != 0 {
		return 0
	}
	if c := cmpInt(k.rank, o.rank); c != 0 {
		return c
	}
	return cmpNum(k.n, o.n)
}

var preRank = map[string]int{"a": 0, "b": 1, "rc": 2}

func (v Version) preKey() key {
	switch {
	case v.pre == nil && v.post == nil && v.dev != nil:
		// 1.0.dev0 sorts before 1.0a0
		return key{inf: -1}
	case v.pre == nil:
		return key{inf: 1}
	default:
		return key{rank: preRank[v.pre.label], n: v.pre.n}
	}
}

func optionalKey(n *num, missingIsMax bool) key {
	if n == nil {
		if missingIsMax {
			return key{inf: 1}
		}
		return key{inf: -1}
	}
	return key{n: *n}
}

func trimZeros(r []num) []num {
	i := len(r)
	for i > 0 && r[i-1].isZero() {
		i--
	}
	return r[:i]
}

func compareRelease(a, b []num) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpNum(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

func compareLocal(a, b []string) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareLocalSegment(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

// numeric local segments sort after alphanumeric ones
func compareLocalSegment(a, b string) int {
	aNum, bNum := isDigits(a), isDigits(b)
	switch {
	case aNum && bNum:
		return cmpNum(parseNum(a), parseNum(b))
	case aNum:
		return 1
	case bNum:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
