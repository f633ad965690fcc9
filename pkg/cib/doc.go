// Package cib holds the cluster configuration document and the store that
// persists it.
//
// The document is a schema-versioned XML tree:
//
//	<cluster schema="burrow-2.0" cluster-id="..." epoch="7" admin-epoch="0">
//	  <configuration>
//	    <options>      cluster-wide option blocks
//	    <nodes>        node roster
//	    <resources>    resources with metadata blocks
//	    <constraints>  ticket / location / colocation / order constraints
//	  </configuration>
//	  <status/>
//	</cluster>
//
// The root carries the schema version the document claims to satisfy, the
// cluster's UUID identity, and two counters: epoch advances on every
// configuration commit, admin-epoch is bumped manually to force precedence
// between divergent copies.
//
// # Store
//
// Store is the collaborator interface the rest of the system queries:
// path selectors in, matching elements out, with the whole-document swap
// as the only write operation. FileStore implements it over a single XML
// file, serving reads from memory and committing through a temp-file
// rename so readers never observe a torn write. Elements returned by Query
// alias the document that was current at query time and remain a coherent
// snapshot after later commits.
//
// Commits are announced on the events broker when one is wired, carrying
// the new epoch and schema version so subscribers know to re-resolve.
package cib
