/*
Package config loads the objectstore configuration: which backend to open and
which model types to define.

A YAML file (TOML works too, chosen by extension) looks like:

	backend: sqlite
	sqlite:
	  path: ./objects.db
	models:
	  - name: Base
	    fields:
	      - {name: created, type: time, serializer: datetime}
	  - name: Person
	    extends: [Base]
	    collection: true
	    fields:
	      - {name: email, required: true}
	      - {name: age, type: int, default: 0}

Models may extend models declared anywhere in the file. Secrets such as AWS
credentials are read from the environment (optionally seeded from a .env file
with LoadEnv) by ApplyEnv, never from the file.
*/
package config
