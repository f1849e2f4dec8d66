package postgres

import (
	"fmt"

	"assetsync/internal/adapters/out/postgres/containerrepo"
	"assetsync/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// ChangeChannel is the NOTIFY channel carrying committed row changes.
const ChangeChannel = "asset_changes"

// notifyFunction publishes {table, op, row_id, version, before, after} for every
// insert or update. Notifications are delivered at commit, so listeners never
// see rolled back writes.
const notifyFunction = `
CREATE OR REPLACE FUNCTION notify_asset_change() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + ChangeChannel + `', json_build_object(
		'table', TG_TABLE_NAME,
		'op', TG_OP,
		'row_id', NEW.id,
		'version', NEW.version,
		'before', CASE WHEN TG_OP = 'UPDATE' THEN row_to_json(OLD) END,
		'after', row_to_json(NEW)
	)::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`

// Migrate creates the tables and installs the change notification triggers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&containerrepo.ContainerDTO{},
		&containerrepo.VehicleDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(notifyFunction).Error; err != nil {
		return fmt.Errorf("create notify function: %w", err)
	}

	for _, table := range []string{"orders", "containers"} {
		stmts := []string{
			fmt.Sprintf("DROP TRIGGER IF EXISTS %s_notify ON %s", table, table),
			fmt.Sprintf("CREATE TRIGGER %s_notify AFTER INSERT OR UPDATE ON %s "+
				"FOR EACH ROW EXECUTE FUNCTION notify_asset_change()", table, table),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("install %s trigger: %w", table, err)
			}
		}
	}

	return nil
}
