// Package addmember implements the add-member flow: a form in one of three
// modes, a debounced profile search and the payload handed to the host.
//
// The package persists nothing. A completed [Form] yields a [Payload]; the
// host decides what to do with it. [Apply] is the helper the command line
// uses to write the new member into a tree file.
//
//	f := addmember.NewForm("ada", addmember.RelationChild)
//	f.SetMode(addmember.ModeManual)
//	f.SetManual("Byron", "1816-12-10")
//	err := f.Submit(ctx, func(ctx context.Context, p addmember.Payload) error {
//		_, err := addmember.Apply(root, p)
//		return err
//	})
package addmember
