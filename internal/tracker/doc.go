// Package tracker implements the deft feature store.
//
// A tracker keeps its files under a data directory named by the config in
// .deft/config:
//
//	<datadir>/status/<status>.index             feature names, highest priority first
//	<datadir>/features/<name>.description       free text
//	<datadir>/features/<name>.properties.yaml   YAML mapping
//
// An absent index file means the status has no features. A feature exists
// if it has a description or a properties file.
//
// Loading is self-healing. Index entries without records are dropped,
// names listed twice keep their first listing, and records no index lists
// are moved to the lost+found status. Each repair is reported to a
// warn.Sink and the repaired index files are written back before New
// returns.
//
// Status and priority changes rewrite the affected index files
// immediately. Description and property setters write their record file
// immediately. There is no separate save step.
package tracker
