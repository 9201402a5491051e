/*

Package migration implements schema versioning for messages and models.

Every versioned entity carries a Metadata field with its schema version.
The package tracks the currently active schema version per package and
upgrades entities on the fly, so handlers and buckets only ever see the
newest schema.

To enable the machinery in an application:

1. declare the "migration" configuration in the genesis, optionally with
the list of packages whose schema should start at version one,

2. register the upgrade message handler via RegisterRoutes,

3. register the schema version query via RegisterQuery.

To version the entities of a package:

1. give every versioned entity a Metadata first attribute:

    type MyModel struct {
      Metadata *abacus.Metadata
      ...
    }

A nil metadata value is not valid, set it whenever creating an entity.

2. declare the migration functions in the package init. The schema version
grows per package, not per entity, so every upgrade must cover all
entities. NoModification marks the ones that need no change:

    func init() {
        migration.MustRegister(1, &MyModel{}, migration.NoModification)
        migration.MustRegister(1, &MyMessage{}, migration.NoModification)
    }

3. embed migration.Bucket instead of orm.Bucket in the package bucket, so
models are upgraded on reads and writes,

4. wrap handlers with SchemaMigratingHandler, so messages are upgraded
before they are processed,

5. set the Metadata.Schema of newly created messages. Models may leave it
unset, it defaults to the current version.

*/
package migration
