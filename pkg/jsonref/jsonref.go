package jsonref

import (
	"net/url"
	"strings"

	"github.com/matzehuels/jsonderef/pkg/errors"
)

// defaultPorts lists the ports Normalize drops because they are implied by
// the scheme.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

var (
	segmentEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	segmentUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Normalize returns the canonical form of uri.
//
// Scheme and host are lowercased, default ports are removed, percent-escapes
// of unreserved characters are decoded and the remaining escapes are written
// in upper case. A single leading "/" is stripped: schema identifiers are
// rooted at the schema set, not at the file system.
//
//	Normalize("HTTP://ABC.com:80/%7Esmith/home.html") // "http://abc.com/~smith/home.html"
//	Normalize("/test.json")                          // "test.json"
func Normalize(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSchemaURI, err, "cannot parse URI %q", uri)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Host != "" {
		host := strings.ToLower(u.Host)
		if port, ok := defaultPorts[u.Scheme]; ok {
			host = strings.TrimSuffix(host, ":"+port)
		}
		u.Host = host
	}

	path := normalizeEscapes(u.EscapedPath())
	query := normalizeEscapes(u.RawQuery)
	fragment := normalizeEscapes(u.EscapedFragment())

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme + ":")
	}
	switch {
	case u.Opaque != "":
		b.WriteString(u.Opaque)
	case u.Host != "" || u.User != nil || (u.Scheme != "" && !u.OmitHost && path != ""):
		b.WriteString("//")
		if u.User != nil {
			b.WriteString(u.User.String() + "@")
		}
		b.WriteString(u.Host)
	case u.Scheme == "":
		path = strings.TrimPrefix(path, "/")
	}
	b.WriteString(path)
	if query != "" {
		b.WriteString("?" + query)
	}
	if fragment != "" {
		b.WriteString("#" + fragment)
	}
	return b.String(), nil
}

// normalizeEscapes decodes percent-escapes of unreserved characters and
// upper-cases the hex digits of every other escape. Reserved characters stay
// escaped, so "a%3Ab" and "a:b" remain distinct.
func normalizeEscapes(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			b.WriteByte(s[i])
			continue
		}
		c := unhex(s[i+1])<<4 | unhex(s[i+2])
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(strings.ToUpper(s[i : i+3]))
		}
		i += 2
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '.' || c == '_' || c == '~'
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// ValidateSchemaURI reports an INVALID_SCHEMA_URI error when uri cannot be
// parsed or carries a fragment. Schema identifiers name whole documents.
func ValidateSchemaURI(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSchemaURI, err, "cannot parse schema URI %q", uri)
	}
	if u.Fragment != "" {
		return errors.New(errors.ErrCodeInvalidSchemaURI, "schema URI %q contains a fragment", uri)
	}
	return nil
}

// SchemaURI strips the fragment from a location URI.
func SchemaURI(location string) string {
	schemaURI, _, _ := strings.Cut(location, "#")
	return schemaURI
}

// Fragment returns the percent-decoded fragment of a location URI, or ""
// when it has none.
func Fragment(location string) (string, error) {
	_, raw, ok := strings.Cut(location, "#")
	if !ok {
		return "", nil
	}
	fragment, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMalformedPointer, err, "cannot decode fragment of %q", location)
	}
	return fragment, nil
}

// EscapeSegment escapes a JSON Pointer reference token ("~" to "~0", then
// "/" to "~1").
func EscapeSegment(segment string) string {
	return segmentEscaper.Replace(segment)
}

// UnescapeSegment reverses EscapeSegment.
func UnescapeSegment(segment string) string {
	return segmentUnescaper.Replace(segment)
}

// AppendPointer appends segment to the JSON Pointer fragment of location.
// Prior segments are kept as they are; a location without a fragment gains
// a one-segment pointer.
//
//	AppendPointer("test.json", "hello")     // "test.json#/hello"
//	AppendPointer("test.json#/hi", "hello") // "test.json#/hi/hello"
//	AppendPointer("test.json", `/\~3`)      // "test.json#/~1%5C~03"
func AppendPointer(location, segment string) string {
	schemaURI, fragment, _ := strings.Cut(location, "#")
	return schemaURI + "#" + fragment + "/" + escapeFragment(EscapeSegment(segment))
}

// Join builds the canonical location URI for segments inside schemaURI.
// Zero segments address the document root, which is the schema URI itself.
func Join(schemaURI string, segments []string) string {
	location := schemaURI
	for _, segment := range segments {
		location = AppendPointer(location, segment)
	}
	return location
}

// PointerSegments splits a decoded JSON Pointer fragment into its unescaped
// segments. "" and "/" both address the document root and yield no segments.
func PointerSegments(fragment string) ([]string, error) {
	if fragment == "" || fragment == "/" {
		return nil, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, errors.New(errors.ErrCodeMalformedPointer,
			"JSON Pointer %q must start with \"/\" or be an empty string", fragment)
	}
	if strings.HasSuffix(fragment, "/") {
		return nil, errors.New(errors.ErrCodeMalformedPointer,
			"JSON Pointer %q must not end with a trailing \"/\"", fragment)
	}

	segments := strings.Split(fragment[1:], "/")
	for i, s := range segments {
		segments[i] = UnescapeSegment(s)
	}
	return segments, nil
}

// Split decomposes a location URI into its schema URI and pointer segments.
func Split(location string) (string, []string, error) {
	fragment, err := Fragment(location)
	if err != nil {
		return "", nil, err
	}
	segments, err := PointerSegments(fragment)
	if err != nil {
		return "", nil, err
	}
	return SchemaURI(location), segments, nil
}

// Resolve resolves ref against base following RFC 3986 and normalizes the
// result.
func Resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSchemaURI, err, "cannot parse base URI %q", base)
	}
	// A base URI never carries a fragment; without this "#" would resolve
	// to the base location instead of the document root.
	b.Fragment, b.RawFragment = "", ""
	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnresolvableReference, err, "cannot parse reference %q in %q", ref, base)
	}
	return Normalize(b.ResolveReference(r).String())
}

func escapeFragment(s string) string {
	return (&url.URL{Fragment: s}).EscapedFragment()
}
