// Package params resolves the run parameters a vault load depends on.
//
// The central parameter is the load timestamp: a single as-of marker bound
// once per run and shared by every load operation. BindLoadTimestamp
// normalizes the caller's raw string: empty input becomes the null marker
// whose SQL literal is a typed NULL, anything else must match the fixed
// format YYYY-MM-DD HH:MM:SS.ffffff.
//
// The package also parses layered run parameters: .env-style files
// (--params-file) and key=value CLI pairs (--param), with later sources
// overriding earlier ones. Parameters feed placeholder substitution in
// model.yaml, which happens once at run start.
package params
