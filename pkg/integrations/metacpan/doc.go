// Package metacpan provides an HTTP client for the MetaCPAN API
// (https://fastapi.metacpan.org).
//
// Perl dependencies are declared per module while packages are built per
// distribution, so the client exposes two lookups:
//
//   - [Client.FetchRelease] returns the latest release of a distribution,
//     including its download URL, sha256 and the raw (module, phase,
//     relationship) dependency list.
//   - [Client.Distribution] maps a module such as "JSON::PP" to the
//     distribution that ships it.
//
// Both lookups are cached under separate keys.
package metacpan
