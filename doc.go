/*
Package robinhood provides an open addressing hash table with Robin Hood
displacement over fixed-size byte keys and values.

The table doesn't know the types it stores. Key and value sizes are given
at construction and every entry is kept inline in one flat buffer:

	tt, err := robinhood.New(8, 8, 1024)
	if err != nil {
		log.Fatal(err)
	}
	defer tt.Destroy()

	key := binary.LittleEndian.AppendUint64(nil, 12345)
	value := binary.LittleEndian.AppendUint64(nil, 67890)
	if err := tt.Set(key, value); err != nil {
		log.Fatal(err)
	}

	v, ok := tt.Get(key)

Keys or values that reference memory outside of the table, such as handles
into an arena, can be given dup and free hooks with NewExtended. A dup hook
runs once when a key or value is written, the matching free hook runs once
when it's overwritten, removed, reset or destroyed. Moving entries during a
resize runs neither.

Map and Set are typed wrappers for scalar keys and values.

The table grows by doubling once the load factor (0.6 by default) is
reached, and removes entries with backward shifting, so no tombstones are
ever left behind and lookups stay bounded by the longest probe sequence.
*/
package robinhood
