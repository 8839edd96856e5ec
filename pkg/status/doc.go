/*
Package status manages the artifact directory and reports per-file outcomes.

	            +-------------+
	            |   Status    |
	            | (Artifacts) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+----+
	|   Files   |           | Progress |
	| (Storage) |           | (0-100%) |
	+-----------+           +----------+

🎯 Purpose:
- Owns every filesystem mutation the sync engine performs
- Names the outcome of each reconciliation decision (FileStatus)
- Reports monotonic progress for a run

⚡ Key Responsibilities:
- Atomic writes: fetched bytes land in a temp file and are renamed over the
  target only when the download completed
- Pattern listing of artifacts (doublestar)
- Deletion of pruned artifacts

🔍 Example:

	mgr := status.New("mods", logger)

	err := mgr.WriteFileAtomic(ctx, "foo.jar", func(w io.Writer) error {
		return fetcher.Fetch(ctx, url, w)
	})

	jars, err := mgr.ListFiles(ctx, "*.jar")

	progress := status.NewProgress(len(descriptors), func(p int) { bar.Set(p) })
	progress.Update(ctx, i+1)
*/
package status
