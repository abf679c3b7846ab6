// Package format holds the serializers used to turn tracker values into
// file content and back.
//
// A Format is chosen per file, not per value: the tracker keeps a table of
// record fields, each with a file suffix and a Format. Read and Write open
// the file through a storage.Storage and always close the stream before
// returning.
package format
