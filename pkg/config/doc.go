/*
Package config loads packsync settings.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

Every setting has a default, so a workspace without a config file behaves like
the classic layout: descriptors in mods/.index, artifacts in mods, pack.toml
and .packignore at the root, mmc-pack.json and instance.cfg one level up.

Parsers register themselves in init() and are picked by file extension.
Unknown keys are rejected by every format.

The precedence list names the metadata sources in the order they are applied;
each later source overwrites the fields it defines.

🔍 Example:

	# .packsync.yaml
	mods_dir: mods
	artifact_pattern: "*.jar"
	download_url: https://mediafilez.forgecdn.net/files/{first}/{second}/{filename}
	precedence: [pack, launcher, instance]

	# packsync.hcl
	mods_dir  = "mods"
	index_dir = "${mods}/.index"
*/
package config
