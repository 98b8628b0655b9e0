package template

import "strings"

// voidTags never take children and need no closing tag.
var voidTags = tagSet("area,base,br,col,embed,hr,img,input,link,meta,param,source,track,wbr")

// nativeTags are the known HTML and common SVG element names. Anything
// outside this set (plus anything capitalized or hyphenated) is treated as
// a component reference.
var nativeTags = tagSet(
	"html,body,base,head,link,meta,style,title," +
		"address,article,aside,footer,header,hgroup,h1,h2,h3,h4,h5,h6,nav,section," +
		"div,dd,dl,dt,figcaption,figure,picture,hr,img,li,main,ol,p,pre,ul," +
		"a,b,abbr,bdi,bdo,br,cite,code,data,dfn,em,i,kbd,mark,q,rp,rt,ruby,s,samp," +
		"small,span,strong,sub,sup,time,u,var,wbr,area,audio,map,track,video," +
		"embed,object,param,source,canvas,script,noscript,del,ins," +
		"caption,col,colgroup,table,thead,tbody,td,th,tr," +
		"button,datalist,fieldset,form,input,label,legend,meter,optgroup,option," +
		"output,progress,select,textarea,details,dialog,menu,summary,template,blockquote,iframe,tfoot," +
		"svg,animate,circle,clippath,defs,desc,ellipse,filter,font-face,g,line," +
		"lineargradient,marker,mask,path,pattern,polygon,polyline,radialgradient," +
		"rect,stop,symbol,text,textpath,tspan,use,view")

func tagSet(csv string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(csv, ",") {
		set[t] = true
	}
	return set
}

// isComponentTag reports whether tag refers to a component rather than a
// native element. Capitalized names are always components; everything else
// (hyphenated custom tags included) is a component only when unknown to
// the platform.
func isComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] >= 'A' && tag[0] <= 'Z' {
		return true
	}
	return !nativeTags[strings.ToLower(tag)]
}
