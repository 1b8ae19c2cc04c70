// Package sources adapts the registry clients in pkg/integrations to
// [tmplgen.PackageRecord].
//
// [Sources] implements [tmplgen.Fetcher] for all three package types and
// supplies the probers [tmplgen.Identify] needs. Registry errors are mapped
// onto the error codes in pkg/errors: a missing package becomes
// PACKAGE_NOT_FOUND, transport failures become REGISTRY_UNAVAILABLE.
package sources
