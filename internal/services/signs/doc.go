// Package signs is the listing view model over the backend's sign resource.
//
// It keeps the last fetched list in memory. Deletes are applied to that list
// before the backend call and rolled back if the call fails; the next Refresh
// reconciles with the backend either way. Edits send only the fields that
// differ from the listed record. Status messages clear themselves after a
// delay through cancellable scheduled tasks released on Close.
package signs
