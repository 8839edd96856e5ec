/*
Package operation is the sync engine. It reconciles the artifact directory
against the descriptor index.

	+------------+   Load    +----------+
	| descriptor | --------> |  Engine  |
	|   Store    |           +----+-----+
	+------------+                |
	          +-------------------+--------------------+
	          |                   |                    |
	   +------v------+    +-------v-------+    +-------v-------+
	   |  checksum   |    |   provider    |    |    status     |
	   | (verify)    |    |  (fetch)      |    |  (disk, prune)|
	   +-------------+    +---------------+    +---------------+

🔄 Flow of a Sync run:
 1. Load every index record. A missing index directory fails the run
    before anything on disk changes.
 2. For each record in listing order: skip invalid records, keep files
    whose checksum matches, fetch the rest. Report progress after each one.
 3. Delete every artifact file whose name is not in the Keep Set.

Per-record failures land in the caller's log.Sink and never abort the run.
A failed fetch is retried on the next run because its filename never enters
the Keep Set. A second run over an unchanged directory fetches and deletes
nothing.

Check performs the same decisions read-only and is what `packsync status`
prints.

🔍 Example:

	engine, err := operation.NewEngine(operation.Options{
		Index:   descriptor.NewStore("mods/.index", ""),
		Files:   status.New("mods", nil),
		Fetcher: provider.NewHTTPFetcher(provider.Options{}),
	})
	res, err := engine.Sync(ctx, sink, func(pct int) { bar.Current = pct })
*/
package operation
