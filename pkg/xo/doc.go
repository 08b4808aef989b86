// Package xo is the entry point of the harness: a Connection signs in to xo-server,
// keeps a local copy of every object visible to the user and records the
// temporary resources created by a test so they can be deleted afterwards.
//
//	conn, err := xo.Dial(ctx, cfg, models.Credentials{Email: "admin@admin.net", Password: "admin"})
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	id, err := conn.CreateTempVM(ctx, map[string]any{"name_label": "e2e", "template": tpl})
//	...
//	err = conn.WaitObjectState(ctx, id, services.PropertyEquals("power_state", "Running"))
//	...
//	failures := conn.DeleteTempResources(ctx)
//
// Connect runs session.signIn then xo.getAllObjects; notifications received in
// between are applied as they come and the bootstrap result overwrites them.
// Close does not delete temporary resources.
package xo
