/*
Package types defines the shared vocabulary of the burrow core: result codes,
sentinel errors, and the small parsers (scores, timestamps, version strings)
that several packages need without depending on each other.

The package sits at the bottom of the dependency graph. Every other burrow
package may import it; it imports nothing from burrow.

# Result Codes

Operations report one of a closed set of codes, following sysexits values
where one exists:

	CodeOK               0   success
	CodeError            1   generic failure
	CodeInvalidInput     65  malformed rule, block, identity, or version
	CodeStoreUnavailable 69  configuration store or schema directory unusable
	CodeSchemaMismatch   78  document satisfies no known schema version
	CodeNotFound         105 query matched nothing (not an error)

# Errors

Expected failures are values, never panics. Four sentinels cover the failure
kinds the core distinguishes:

	ErrNotFound          lookup or query matched nothing
	ErrInvalidInput      malformed content or violated caller contract
	ErrStoreUnavailable  store or directory I/O failed
	ErrSchemaMismatch    no schema version accepted the document

Packages wrap the sentinels with context:

	return fmt.Errorf("block %q: rule reference does not resolve: %w",
		block.ID, types.ErrInvalidInput)

Callers branch with errors.Is or the helpers (IsNotFound, IsInvalidInput,
IsStoreUnavailable, IsSchemaMismatch), and the CLI maps a whole chain to its
exit status with ExitCode:

	os.Exit(int(types.ExitCode(err)))

Content errors are joined with errors.Join when an operation continues past
them; the helpers see the sentinels through joins.

# Scores

Block and constraint scores are integers with two reserved literals:

	score, err := types.ParseScore("INFINITY") // 1000000
	score, err = types.ParseScore("-INFINITY") // -1000000
	score, err = types.ParseScore("250")       // 250, clamped to the bounds

# Timestamps and Versions

ParseTime accepts RFC 3339, a zone-less timestamp, or a bare date (both read
as UTC). CompareVersions orders dotted version strings numerically per
component ("1.9" < "1.10"), with missing components counting as zero.

# See Also

  - pkg/rules: consumes ParseTime and CompareVersions in rule evaluation
  - pkg/nvpair: consumes ParseScore for block ordering
  - cmd/burrow: maps errors to exit codes with ExitCode
*/
package types
