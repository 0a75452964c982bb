// Package spec builds descriptions of remote HTTP API operations and
// flattens them into plain documents consumed by a transport.
package spec

// Type is a parameter type understood by the transport's validator.
type Type string

const (
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeNumeric Type = "numeric"
	TypeNull    Type = "null"
	TypeAny     Type = "any"
)

// Types lists the type vocabulary in declaration order.
var Types = []Type{TypeArray, TypeObject, TypeString, TypeBoolean, TypeInteger, TypeNumber, TypeNumeric, TypeNull, TypeAny}

// Location is where a parameter is applied on the request (or read from the
// response, for the response-side locations).
type Location string

const (
	LocationURI          Location = "uri"
	LocationQuery        Location = "query"
	LocationHeader       Location = "header"
	LocationBody         Location = "body"
	LocationJSON         Location = "json"
	LocationXML          Location = "xml"
	LocationFormParam    Location = "formParam"
	LocationMultipart    Location = "multipart"
	LocationStatusCode   Location = "statusCode"
	LocationReasonPhrase Location = "reasonPhrase"
	LocationResponseBody Location = "responseBody"
)

// RequestLocations are the locations reachable through name dispatch.
var RequestLocations = []Location{
	LocationURI, LocationQuery, LocationHeader, LocationBody,
	LocationJSON, LocationXML, LocationFormParam, LocationMultipart,
}

// Locations lists every known location.
var Locations = append(append([]Location{}, RequestLocations...), LocationStatusCode, LocationReasonPhrase, LocationResponseBody)

// Format coaxes a value into shape when it is serialized.
type Format string

const (
	FormatDateTime      Format = "date-time"
	FormatDate          Format = "date"
	FormatTime          Format = "time"
	FormatTimestamp     Format = "timestamp"
	FormatDateTimeHTTP  Format = "date-time-http"
	FormatBooleanString Format = "boolean-string"
)

// Formats lists every known format.
var Formats = []Format{FormatDateTime, FormatDate, FormatTime, FormatTimestamp, FormatDateTimeHTTP, FormatBooleanString}

// Method is the HTTP method of an operation.
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

// Methods lists every known HTTP method.
var Methods = []Method{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &Error{Code: ArgumentError, Message: "unknown parameter type " + quote(s)}
}

// ParseLocation returns the Location named s.
func ParseLocation(s string) (Location, error) {
	for _, l := range Locations {
		if string(l) == s {
			return l, nil
		}
	}
	return "", &Error{Code: ArgumentError, Message: "unknown parameter location " + quote(s)}
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", &Error{Code: ArgumentError, Message: "unknown format " + quote(s)}
}

// ParseMethod returns the Method named s. Matching is case-insensitive.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if equalFold(string(m), s) {
			return m, nil
		}
	}
	return "", &Error{Code: ArgumentError, Message: "unknown http method " + quote(s)}
}

func lookupType(name string) (Type, bool) {
	for _, t := range Types {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

func lookupRequestLocation(name string) (Location, bool) {
	for _, l := range RequestLocations {
		if string(l) == name {
			return l, true
		}
	}
	return "", false
}
