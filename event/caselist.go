// Copyright 2026 The resched Authors
// This file is part of resched.
//
// resched is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// resched is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with resched.  If not, see <http://www.gnu.org/licenses/>.

package event

import "reflect"

// caseList holds the reflect.SelectCase slice Feed.Send fans values out
// over. Index 0 is always the feed's removeSub channel.
type caseList []reflect.SelectCase

// find returns the index of a case, or -1 if not found.
func (cs caseList) find(channel any) int {
	for i, cas := range cs {
		if cas.Chan.Interface() == channel {
			return i
		}
	}
	return -1
}

// delete removes the given case from cs, preserving order.
func (cs caseList) delete(index int) caseList {
	return append(cs[:index], cs[index+1:]...)
}

// deactivate moves the case at index to the non-participating portion of
// the slice by swapping it to the end and trimming it off.
func (cs caseList) deactivate(index int) caseList {
	last := len(cs) - 1
	cs[index], cs[last] = cs[last], cs[index]
	return cs[:last]
}
