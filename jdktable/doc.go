// Package jdktable edits the SDK table of JetBrains IDEs (jdk.table.xml).
//
// The table lists the SDKs known to the IDE. Each SDK carries a javadocPath
// element whose root container holds one root entry per documentation
// location:
//
//	<jdk version="2">
//	  <name value="Android API 28 Platform" />
//	  <homePath value="/opt/android-sdk" />
//	  <roots>
//	    <javadocPath>
//	      <root type="composite">
//	        <root type="simple" url="http://developer.android.com/reference/" />
//	      </root>
//	    </javadocPath>
//	  </roots>
//	</jdk>
//
// [PatchFile] adds a jar of generated documentation as a new entry, keeping a
// backup of the previous file. Documents are parsed with xmlquery into an
// owned [Document] tree so entries can be cloned and spliced without
// sharing nodes.
package jdktable
