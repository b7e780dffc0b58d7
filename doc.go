/*
Package xrow turns backend-encoded result rows into typed Go values. It sits
between a driver, which yields an ordered list of opaque field payloads per
row, and application code, which wants scalars, tuples or structs.

# Contracts

  - Decoder[T] decodes one field payload. NULL fails with ErrUnexpectedNull
    unless the decoder represents "no value" (Nullable, Null, OrNull).
  - StaticRow[T] decodes a row of known width. A Decoder is the single-value
    case and reads position 0; a Composite walks its slots left to right,
    each over a window of its own width. Tuples (T2..T8) are composites.
  - Queryable adapts a static intermediate into the final type with an
    infallible function.
  - Columns, ByName and Named look fields up by exact column name, so column
    order does not matter.
  - RowBuilder[T] is the one entry point the query helpers call. A builder
    comes from either the static path or the named path; the constructor
    picks, and the type system rejects a target that declares neither.

# Mapping without hand-written adapters

Positional and ByColumn derive adapters from struct fields. Names come from
`db:"name"` tags first, otherwise the lower-cased field name; `db:"-"`
skips, `,inline` and anonymous structs flatten, `,optional` tolerates an
absent column. Derived field indexes and decoders are cached per type in a
concurrency-safe map (sync.Map).

# Backends

A RawValue carries its Backend. Text payloads are textual renderings, Binary
payloads are fixed-width network byte order, and Driver payloads are values
already converted by a database/sql driver. Builtin decoders understand all
three; Backend.Encode is their inverse.

# Error handling

  - ErrUnexpectedNull, ErrUnexpectedEndOfRow and ErrColumnNotFound are
    matched with errors.Is.
  - *ConversionError names the declared type, the Go type and the offending
    value.
  - *FieldError adds the absolute position or column name.
  - The first failing field aborts the row; no partial value is returned.
  - Get returns sql.ErrNoRows when no row matches.

# Concurrency

Decoders, composites and builders are immutable once built. Decoding touches
only the row passed in, so independent rows may be decoded in parallel.
*/
package xrow
