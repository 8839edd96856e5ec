// Package descriptor reads the per-artifact index records that declare which
// files belong in the artifact directory.
//
// An index record is a TOML file:
//
//	name = "Abundant Atmosphere"
//	filename = "abundant_atmosphere-1.19.2-1.0.2.jar"
//
//	[download]
//	hash = "a70e90febcda5eec3381911beb4b3e448fd1b363"
//	hash-format = "sha1"
//	mode = "metadata:curseforge"
//
//	[update.curseforge]
//	file-id = 4083493
//	project-id = 682418
//
// Fields are checked in a fixed order (name, filename, download, download.mode,
// download.hash, download.hash-format) and the first missing one is reported
// as a *MalformedError. Only after that is the download mode checked; any mode
// other than metadata:curseforge is an *UnsupportedModeError. Supported records
// additionally need update.curseforge.file-id and project-id.
package descriptor
